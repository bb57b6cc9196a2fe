// Package planner aggregates per-kind diffs into a single plan and renders
// it for human review.
package planner

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/service/diff"
)

// Build runs the diff engine over all three resource kinds. A kind with no
// local schema file contributes an empty desired set here. A kind whose
// schema file was structurally broken carries its issue instead of a diff:
// comparing against an empty desired set would advertise deleting every
// remote resource of that kind.
func Build(desired, current *schema.Sets, issues []schema.KindIssue) *schema.Plan {
	plan := &schema.Plan{Issues: issues}

	broken := map[types.ResourceKind]bool{}
	for _, issue := range issues {
		broken[issue.Kind] = true
	}

	if !broken[types.KindCompositeIndex] {
		plan.Composite = diff.Composite(desired.Composite, current.Composite)
	}
	if !broken[types.KindFieldIndex] {
		plan.Fields = diff.Fields(desired.Fields, current.Fields)
	}
	if !broken[types.KindTTLPolicy] {
		plan.TTL = diff.TTL(desired.TTL, current.TTL)
	}
	return plan
}

var (
	createTag = color.New(color.FgGreen).Sprint("[+]")
	deleteTag = color.New(color.FgRed).Sprint("[-]")
	updateTag = color.New(color.FgYellow).Sprint("[~]")
	issueTag  = color.New(color.FgRed, color.Bold).Sprint("[!]")
)

// Render writes one unambiguous line per instruction, grouped by kind. An
// entirely empty plan renders a single no-changes line.
func Render(w io.Writer, plan *schema.Plan) {
	for _, issue := range plan.Issues {
		fmt.Fprintf(w, "%s %s: %v\n", issueTag, issue.Kind.Label(), issue.Err)
	}

	if plan.Empty() {
		fmt.Fprintf(w, "%s No changes\n", updateTag)
		return
	}

	if !plan.Composite.Empty() {
		fmt.Fprintf(w, "%s\n", types.KindCompositeIndex.Label())
		for _, idx := range plan.Composite.Create {
			fmt.Fprintf(w, "  %s WILL CREATE: %s\n", createTag, idx.Describe())
		}
		for _, change := range plan.Composite.Update {
			fmt.Fprintf(w, "  %s WILL UPDATE: %s %s: %s -> %s\n",
				updateTag, change.New.Key.CollectionGroup, change.New.Key.QueryScope,
				change.Old.FieldSpec(), change.New.FieldSpec())
		}
		for _, idx := range plan.Composite.Delete {
			fmt.Fprintf(w, "  %s WILL DELETE: %s\n", deleteTag, idx.Describe())
		}
	}

	if !plan.Fields.Empty() {
		fmt.Fprintf(w, "%s\n", types.KindFieldIndex.Label())
		for _, rec := range plan.Fields.Create {
			fmt.Fprintf(w, "  %s WILL CREATE: FIELD INDEX: %s\n", createTag, rec.Describe())
		}
		for _, rec := range plan.Fields.Delete {
			fmt.Fprintf(w, "  %s WILL DELETE: FIELD INDEX: %s\n", deleteTag, rec.Describe())
		}
	}

	if !plan.TTL.Empty() {
		fmt.Fprintf(w, "%s\n", types.KindTTLPolicy.Label())
		for _, policy := range plan.TTL.Create {
			fmt.Fprintf(w, "  %s WILL CREATE: %s\n", createTag, policy.Describe())
		}
		for _, change := range plan.TTL.Update {
			fmt.Fprintf(w, "  %s WILL UPDATE: TTL: %s %t -> %t\n",
				updateTag, change.New.Key.String(), change.Old.Enabled, change.New.Enabled)
		}
		for _, policy := range plan.TTL.Delete {
			fmt.Fprintf(w, "  %s WILL DELETE: %s\n", deleteTag, policy.Describe())
		}
	}
}
