package safe

import (
	"context"
	"fmt"
	"io"

	"github.com/secmon-lab/firesync/pkg/utils/logging"
)

func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", logging.ErrAttr(err))
	}
}

func Remove(ctx context.Context, remove func() error) {
	if remove == nil {
		return
	}
	if err := remove(); err != nil {
		logging.From(ctx).Error("Failed to remove", logging.ErrAttr(err))
	}
}

func Fprintf(ctx context.Context, w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		logging.From(ctx).Error("Failed to write", logging.ErrAttr(err))
	}
}
