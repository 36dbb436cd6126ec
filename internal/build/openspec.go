// SPDX-License-Identifier: MPL-2.0

package build

import (
	"io/fs"
	"os"
	"path/filepath"
)

// openSpecNames are the include files the STREAM-access rewrite targets.
var openSpecNames = []string{"openspec.inc", "FILESPEC.INC"}

// openSpecContent is the replacement include that switches unformatted file
// access to STREAM, which the generated binaries expect regardless of the
// conventions the source tree shipped with.
const openSpecContent = "c -- created by fmake\n" +
	"      CHARACTER*20 ACCESS,FORM,ACTION(2)\n" +
	"      DATA ACCESS/'STREAM'/\n" +
	"      DATA FORM/'UNFORMATTED'/\n" +
	"      DATA (ACTION(I),I=1,2)/'READ','READWRITE'/\n" +
	"c -- end of include file\n"

// RewriteOpenSpec replaces every openspec.inc / FILESPEC.INC below dir with
// the STREAM-access variant. Returns the paths rewritten. Only ever applied
// to the staged copy, never the original tree.
func RewriteOpenSpec(dir string) ([]string, error) {
	var rewritten []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		for _, name := range openSpecNames {
			if entry.Name() != name {
				continue
			}
			if err := os.WriteFile(path, []byte(openSpecContent), 0o644); err != nil {
				return err
			}
			rewritten = append(rewritten, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rewritten, nil
}
