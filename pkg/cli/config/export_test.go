package config

func NewWorkspace(path string) *Workspace {
	return &Workspace{path: path}
}
