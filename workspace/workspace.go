package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the scratch area owned by exactly one job. The input file and
// output tree live at fixed locations under the root so a crashed run leaves
// nothing a retry cannot overwrite.
type Workspace struct {
	Root      string
	InputFile string
	OutputDir string
}

// Acquire creates the scratch root and its output subdirectory. Pre-existing
// directories are not an error.
func Acquire(root string) (*Workspace, error) {
	w := &Workspace{
		Root:      root,
		InputFile: filepath.Join(root, "input.mp4"),
		OutputDir: filepath.Join(root, "output"),
	}
	if err := os.MkdirAll(w.OutputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", root, err)
	}
	return w, nil
}

// Release deletes the input file and the output tree. Missing paths are a
// no-op, so calling it after a partial run is safe.
func (w *Workspace) Release() error {
	if err := os.Remove(w.InputFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove input file: %w", err)
	}
	if err := os.RemoveAll(w.OutputDir); err != nil {
		return fmt.Errorf("remove output directory: %w", err)
	}
	return nil
}
