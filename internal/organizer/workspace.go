package organizer

// Folder is an opaque handle to a materialized target folder.
type Folder interface {
	// Path returns the backend-specific location of the folder, for
	// logging and reporting only.
	Path() string
}

// Workspace is the capability granted over the user-selected target
// location. It carries no transactionality: each call either fully
// succeeds or fails on its own, which lets test doubles simulate partial
// failures per call.
//
// The executor exclusively owns the workspace for the duration of a run;
// re-selecting a target affects later runs only.
type Workspace interface {
	// EnsureFolder creates the named subfolder if absent and returns a
	// handle to it. Calling it again with the same name is safe.
	EnsureFolder(name string) (Folder, error)

	// WriteFile writes payload under folder using the given file name,
	// replacing any existing file of that name.
	WriteFile(folder Folder, name string, payload []byte) error

	// Root returns a human-readable label for the target location.
	Root() string
}
