// Package platform hides operating-system differences in how created
// entries get their permission bits. On Unix the configured mode is applied
// with chmod so the process umask does not narrow it. On Windows, which has
// no Unix permission bits, it does nothing.
package platform
