package membuf

import (
	"os"
	"path"
)

// ScratchDir is the directory used by MapNamed to create scratch mapping
// files. It defaults to a subdirectory of the system temporary directory and
// can be overridden with the MEMBUF_DIR environment variable.
var ScratchDir string

// initConfig initializes package configuration from the environment
func initConfig() {
	dir, ok := os.LookupEnv("MEMBUF_DIR")
	if !ok {
		dir = path.Join(os.TempDir(), "membuf")
	}
	ScratchDir = dir

	if v, ok := os.LookupEnv("MEMBUF_LOGGING"); ok && v != "" && v != "0" {
		logging = true
	}
}
