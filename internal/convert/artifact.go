package convert

import "sync"

// Artifact is the raster image produced by one conversion strategy, or the
// original file when the input is already an image. A temporary artifact is
// exclusively owned by its consumer and must be released on every exit path.
type Artifact struct {
	Path     string
	Strategy string

	temporary bool
	once      sync.Once
	cleanup   func()
}

// Temporary reports whether Release will remove backing files.
func (a *Artifact) Temporary() bool {
	return a.temporary
}

// Release removes the artifact's backing temp files. Safe to call more than
// once; a no-op for non-temporary artifacts.
func (a *Artifact) Release() {
	if a == nil || !a.temporary || a.cleanup == nil {
		return
	}
	a.once.Do(a.cleanup)
}

func newTempArtifact(path, strategy string, cleanup func()) *Artifact {
	return &Artifact{Path: path, Strategy: strategy, temporary: true, cleanup: cleanup}
}

func keepArtifact(path, strategy string) *Artifact {
	return &Artifact{Path: path, Strategy: strategy}
}
