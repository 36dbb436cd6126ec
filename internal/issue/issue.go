// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SourceDirNotFoundId Id = iota + 1
	NoSourceFilesId
	CompilerNotFoundId
	UnsupportedCompilerId
	CompileFailedId
	LinkFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	sourceDirNotFoundIssue = &Issue{
		id: SourceDirNotFoundId,
		mdMsg: `
# Source directory not found!

The source directory you pointed fmake at does not exist.

## Things you can try:
- Check the path for typos:
~~~
$ fmake build ./src myprog
~~~

- List what is actually there:
~~~
$ ls <parent directory>
~~~`,
	}

	noSourceFilesIssue = &Issue{
		id: NoSourceFilesId,
		mdMsg: `
# No source files found!

The source directory exists but contains no Fortran or C/C++ sources.

## Extensions we look for:
- Fortran: ` + "`.f`, `.f90`, `.for`, `.fpp`" + `
- C/C++: ` + "`.c`, `.cpp`" + `

## Things you can try:
- Pass --subdirs if the sources live in subdirectories:
~~~
$ fmake build --subdirs ./src myprog
~~~

- Check that you pointed at the right directory`,
	}

	compilerNotFoundIssue = &Issue{
		id: CompilerNotFoundId,
		mdMsg: `
# Compiler not found!

The selected compiler is not installed or not on your PATH.

## Things you can try:
- Install gfortran:
  - Linux: ` + "`sudo apt install gfortran`" + ` or ` + "`sudo dnf install gcc-gfortran`" + `
  - macOS: ` + "`brew install gcc`" + `

- Install the Intel compiler and source its environment script

- Select a different compiler:
~~~
$ fmake build -fc gfortran ./src myprog
~~~

- Set a default in ~/.config/fmake/config.toml:
~~~toml
fortran_compiler = "gfortran"
~~~`,
	}

	unsupportedCompilerIssue = &Issue{
		id: UnsupportedCompilerId,
		mdMsg: `
# Unsupported compiler!

The compiler name you specified is not one fmake knows how to drive.

## Supported compilers:
- Fortran: **gfortran**, **ifort**
- C/C++: **gcc**, **clang**, **cl**

## Example:
~~~
$ fmake build -fc ifort -cc clang ./src myprog
~~~`,
	}

	compileFailedIssue = &Issue{
		id: CompileFailedId,
		mdMsg: `
# Compilation failed!

One of the source files did not compile. The compiler output above has the
file, line and message.

## Things you can try:
- Fix the reported error and rerun; --expedite skips units that already
  compiled:
~~~
$ fmake build --expedite ./src myprog
~~~

- Try a debug build, which disables optimization:
~~~
$ fmake build --debug ./src myprog
~~~

- Preview the exact commands without running them:
~~~
$ fmake build --dry-run ./src myprog
~~~`,
	}

	linkFailedIssue = &Issue{
		id: LinkFailedId,
		mdMsg: `
# Link failed!

All sources compiled but the final link step failed.

## Common causes:
- Undefined references (a program unit was never compiled in)
- Mixed-language symbol naming mismatches
- Missing system libraries

## Things you can try:
- Check for undefined reference messages above
- If C and Fortran symbols do not line up, check whether the Fortran
  sources use iso_c_binding
- Pass extra flags through --fflags:
~~~
$ fmake build --fflags "-lm" ./src myprog
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the fmake configuration file.

## Configuration file locations:
- Linux: ~/.config/fmake/config.toml
- macOS: ~/Library/Application Support/fmake/config.toml
- Windows: %APPDATA%\fmake\config.toml

## Things you can try:
- Create a default configuration:
~~~
$ fmake config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/fmake/config.toml
~~~

## Example configuration:
~~~toml
fortran_compiler = "gfortran"
c_compiler = "gcc"
arch = "intel64"

[ui]
color_scheme = "auto"
verbose = false
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- The target path is in a protected directory
- The staging directories cannot be created next to the sources
- The source tree is read-only

## Things you can try:
- Check file/directory permissions
- Write the target somewhere you own:
~~~
$ fmake build ./src ~/bin/myprog
~~~`,
	}

	issues = map[Id]*Issue{
		sourceDirNotFoundIssue.Id():   sourceDirNotFoundIssue,
		noSourceFilesIssue.Id():       noSourceFilesIssue,
		compilerNotFoundIssue.Id():    compilerNotFoundIssue,
		unsupportedCompilerIssue.Id(): unsupportedCompilerIssue,
		compileFailedIssue.Id():       compileFailedIssue,
		linkFailedIssue.Id():          linkFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
