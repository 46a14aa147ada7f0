package output

type FileStorePort interface {
	// ListFiles returns the paths of regular files in dir whose names end
	// with suffix, sorted by name. Non-recursive.
	ListFiles(dir, suffix string) ([]string, error)

	// ReadText reads the full file as UTF-8 text.
	ReadText(path string) (string, error)

	// WriteText writes content to path, creating parent directories as
	// needed. The write is atomic: a partially written file is never
	// visible under the target name.
	WriteText(path, content string) error

	Exists(path string) bool
	IsDir(path string) bool
	IsFile(path string) bool
	EnsureDir(path string) error
}
