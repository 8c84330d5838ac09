// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on setup errors:
// environment variables (MustSetenv, MustUnsetenv) and file trees
// (MustWriteFile, WriteManifest).
package testutil
