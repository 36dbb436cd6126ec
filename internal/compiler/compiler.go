// SPDX-License-Identifier: MPL-2.0

// Package compiler assembles per-compiler, per-platform command-line flags
// for the build driver. It is a pure data transformation over the selected
// toolchain and build options; probing the installed toolchain lives in
// probe.go and is injectable for tests.
package compiler

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"fmake/pkg/platform"
)

const (
	// FortranGNU selects gfortran.
	FortranGNU FortranCompiler = "gfortran"
	// FortranIntel selects ifort.
	FortranIntel FortranCompiler = "ifort"

	// CGcc selects gcc for C/C++ units.
	CGcc CCompiler = "gcc"
	// CClang selects clang for C/C++ units.
	CClang CCompiler = "clang"
	// CCl selects the MSVC cl driver for C/C++ units. It is also forced
	// for Windows ifort builds, which link through the MSVC toolchain.
	CCl CCompiler = "cl"

	// ArchIA32 targets 32-bit builds (ifort only).
	ArchIA32 Arch = "ia32"
	// ArchIA32Intel64 targets 32-bit builds on 64-bit hosts (ifort only).
	ArchIA32Intel64 Arch = "ia32_intel64"
	// ArchIntel64 targets 64-bit builds (ifort default).
	ArchIntel64 Arch = "intel64"
)

var (
	// ErrInvalidFortranCompiler is the sentinel error wrapped by InvalidFortranCompilerError.
	ErrInvalidFortranCompiler = errors.New("invalid fortran compiler")
	// ErrInvalidCCompiler is the sentinel error wrapped by InvalidCCompilerError.
	ErrInvalidCCompiler = errors.New("invalid c compiler")
	// ErrInvalidArch is the sentinel error wrapped by InvalidArchError.
	ErrInvalidArch = errors.New("invalid architecture")
)

type (
	// FortranCompiler identifies the Fortran toolchain.
	FortranCompiler string

	// InvalidFortranCompilerError is returned when a FortranCompiler value
	// is not recognized. It wraps ErrInvalidFortranCompiler for errors.Is().
	InvalidFortranCompilerError struct {
		Value FortranCompiler
	}

	// CCompiler identifies the C/C++ toolchain.
	CCompiler string

	// InvalidCCompilerError is returned when a CCompiler value is not
	// recognized. It wraps ErrInvalidCCompiler for errors.Is().
	InvalidCCompilerError struct {
		Value CCompiler
	}

	// Arch identifies the ifort target architecture.
	Arch string

	// InvalidArchError is returned when an Arch value is not recognized.
	// It wraps ErrInvalidArch for errors.Is().
	InvalidArchError struct {
		Value Arch
	}

	// Options captures everything that influences flag assembly.
	Options struct {
		// Fortran is the Fortran compiler to use.
		Fortran FortranCompiler
		// C is the C/C++ compiler to use.
		C CCompiler
		// Arch is the ifort target architecture.
		Arch Arch
		// Debug builds a debug binary instead of an optimized one.
		Debug bool
		// DoublePrecision forces 8-byte default reals.
		DoublePrecision bool
		// ExtraFFlags are user-supplied Fortran flags, appended last.
		ExtraFFlags []string
		// UsesISOCBinding reports whether the Fortran sources reference
		// iso_c_binding; when they don't, C units get -D_UF so mixed-language
		// symbol naming still lines up.
		UsesISOCBinding bool
		// GOOS overrides the target platform (defaults to runtime.GOOS).
		GOOS string
		// FlagProbe overrides the installed-toolchain flag probe (defaults
		// to probing the real compiler). Used by tests and dry runs.
		FlagProbe func(flag string) bool
	}

	// Toolchain is the assembled command-line vocabulary for one build.
	Toolchain struct {
		// FC is the Fortran compiler executable name.
		FC string
		// CC is the C compiler executable name.
		CC string
		// FFlags are the Fortran compile (and link) flags.
		FFlags []string
		// CFlags are the C compile flags.
		CFlags []string
		// SysLibs are the libraries appended to the link line.
		SysLibs []string
		// ModuleFlags are the flag prefixes that point the compiler at the
		// module/object directories ("-I"/"-J" for gnu, "-module" for ifort).
		ModuleFlags []string
		// ObjExt is the object file extension (".o" or ".obj").
		ObjExt string
	}
)

// Error implements the error interface.
func (e *InvalidFortranCompilerError) Error() string {
	return fmt.Sprintf("invalid fortran compiler %q (must be %q or %q)", e.Value, FortranGNU, FortranIntel)
}

// Unwrap returns ErrInvalidFortranCompiler so callers can use errors.Is.
func (e *InvalidFortranCompilerError) Unwrap() error { return ErrInvalidFortranCompiler }

// Error implements the error interface.
func (e *InvalidCCompilerError) Error() string {
	return fmt.Sprintf("invalid c compiler %q (must be %q, %q or %q)", e.Value, CGcc, CClang, CCl)
}

// Unwrap returns ErrInvalidCCompiler so callers can use errors.Is.
func (e *InvalidCCompilerError) Unwrap() error { return ErrInvalidCCompiler }

// Error implements the error interface.
func (e *InvalidArchError) Error() string {
	return fmt.Sprintf("invalid architecture %q (must be %q, %q or %q)",
		e.Value, ArchIA32, ArchIA32Intel64, ArchIntel64)
}

// Unwrap returns ErrInvalidArch so callers can use errors.Is.
func (e *InvalidArchError) Unwrap() error { return ErrInvalidArch }

// Validate returns an error if the FortranCompiler value is not recognized.
func (c FortranCompiler) Validate() error {
	switch c {
	case FortranGNU, FortranIntel:
		return nil
	}
	return &InvalidFortranCompilerError{Value: c}
}

// Validate returns an error if the CCompiler value is not recognized.
func (c CCompiler) Validate() error {
	switch c {
	case CGcc, CClang, CCl:
		return nil
	}
	return &InvalidCCompilerError{Value: c}
}

// Validate returns an error if the Arch value is not recognized.
func (a Arch) Validate() error {
	switch a {
	case ArchIA32, ArchIA32Intel64, ArchIntel64:
		return nil
	}
	return &InvalidArchError{Value: a}
}

// Select assembles the Toolchain for the given options.
func Select(opts Options) (*Toolchain, error) {
	if err := opts.Fortran.Validate(); err != nil {
		return nil, err
	}
	if err := opts.C.Validate(); err != nil {
		return nil, err
	}
	if opts.Arch == "" {
		opts.Arch = ArchIntel64
	}
	if err := opts.Arch.Validate(); err != nil {
		return nil, err
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var tc *Toolchain
	switch opts.Fortran {
	case FortranGNU:
		tc = gnuToolchain(opts, goos)
	case FortranIntel:
		tc = intelToolchain(opts, goos)
	}

	tc.CC = string(opts.C)
	// Windows ifort builds compile and link through the MSVC toolchain,
	// so the C compiler is always cl regardless of the configured one.
	if goos == platform.Windows && opts.Fortran == FortranIntel {
		opts.C = CCl
		tc.CC = "cl.exe"
	}
	tc.CFlags = append(tc.CFlags, cFlags(opts)...)
	if goos != platform.Windows {
		tc.SysLibs = append(tc.SysLibs, "-lc")
	}
	return tc, nil
}

// gnuToolchain assembles gfortran flags.
func gnuToolchain(opts Options, goos string) *Toolchain {
	tc := &Toolchain{
		FC:          string(FortranGNU),
		ModuleFlags: []string{"-I", "-J"},
		ObjExt:      ".o",
	}
	if opts.Debug {
		tc.FFlags = []string{"-g", "-fcheck=all", "-fbacktrace", "-fbounds-check"}
	} else {
		tc.FFlags = []string{"-O2", "-fbacktrace"}
		// The fpe-summary flag only exists in newer gfortran releases, so
		// ask the installed compiler before emitting it.
		if goos != platform.Windows && probeFlag(opts, "-ffpe-summary") {
			tc.FFlags = append(tc.FFlags, "-ffpe-summary=overflow")
		}
	}
	if opts.DoublePrecision {
		tc.FFlags = append(tc.FFlags, "-fdefault-real-8", "-fdefault-double-8")
	}
	tc.FFlags = append(tc.FFlags, normalizeExtraFlags(opts.ExtraFFlags)...)
	return tc
}

// intelToolchain assembles ifort flags. The Windows variant mirrors the
// classic cl.exe-driven build: different flag spellings and .obj objects.
func intelToolchain(opts Options, goos string) *Toolchain {
	if goos == platform.Windows {
		tc := &Toolchain{
			FC:          "ifort.exe",
			ModuleFlags: []string{"-module"},
			ObjExt:      ".obj",
			FFlags:      []string{"-heap-arrays:0", "-fpe:0", "-traceback", "-nologo"},
		}
		if opts.Debug {
			tc.FFlags = append(tc.FFlags, "-debug")
		} else {
			tc.FFlags = append(tc.FFlags, "-O2")
		}
		if opts.DoublePrecision {
			tc.FFlags = append(tc.FFlags, "/real_size:64")
		}
		tc.FFlags = append(tc.FFlags, normalizeExtraFlags(opts.ExtraFFlags)...)
		return tc
	}

	tc := &Toolchain{
		FC:          string(FortranIntel),
		ModuleFlags: []string{"-module"},
		ObjExt:      ".o",
	}
	if opts.Debug {
		tc.FFlags = []string{"-O0", "-debug", "all", "-no-heap-arrays", "-fpe0", "-traceback"}
	} else {
		tc.FFlags = []string{"-O2", "-no-heap-arrays", "-fpe0", "-traceback"}
	}
	if opts.DoublePrecision {
		tc.FFlags = append(tc.FFlags, "-r8", "-double_size", "64")
	}
	tc.FFlags = append(tc.FFlags, normalizeExtraFlags(opts.ExtraFFlags)...)
	return tc
}

// cFlags assembles the C/C++ compile flags.
func cFlags(opts Options) []string {
	var flags []string
	if opts.Debug {
		flags = []string{"-O0", "-g"}
	} else {
		flags = []string{"-O3"}
	}
	if opts.C == CCl {
		flags = append([]string{"-nologo"}, flags...)
		if opts.Debug {
			flags = append(flags, "-Zi")
		}
	}
	// -D_UF selects UNIX naming conventions for mixed-language symbol
	// resolution when the Fortran side does not use iso_c_binding.
	if !opts.UsesISOCBinding {
		flags = append(flags, "-D_UF")
	}
	return flags
}

// probeFlag consults the configured probe or the real installed compiler.
func probeFlag(opts Options, flag string) bool {
	if opts.FlagProbe != nil {
		return opts.FlagProbe(flag)
	}
	return HasFlag(string(opts.Fortran), flag)
}

// normalizeExtraFlags prefixes user flags with "-" when missing, so both
// "--fflags O3" and "--fflags -O3" spellings work.
func normalizeExtraFlags(flags []string) []string {
	var out []string
	for _, f := range flags {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !strings.HasPrefix(f, "-") && !strings.HasPrefix(f, "/") {
			f = "-" + f
		}
		out = append(out, f)
	}
	return out
}
