// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility helpers.
//
// It centralizes the GOOS string literals that compiler-flag selection and
// config-directory resolution branch on, so platform checks stay greppable.
package platform
