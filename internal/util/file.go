package util

import (
	"path/filepath"
	"strings"
)

// FileExtension returns the lower-case extension of name including the dot.
// An explicit extension, when given, wins.
func FileExtension(name, explicit string) string {
	ext := explicit
	if ext == "" {
		ext = filepath.Ext(name)
	}
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtensionAllowed reports whether ext is in allowed. An empty allow-list
// accepts everything.
func ExtensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if FileExtension("", a) == ext {
			return true
		}
	}
	return false
}

// SafeFilename strips any directory components from an uploaded name.
func SafeFilename(name string) string {
	name = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	if name == "/" || name == "." {
		return ""
	}
	return name
}
