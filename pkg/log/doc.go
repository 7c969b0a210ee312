// Package log is a thin wrapper around the standard library logger that gives
// every component of sitesearch its own named, leveled logger.
//
//	l := log.ForService("loader")
//	l.Infof("loaded %d pages", n)
//	l.Debugf("response headers: %v", resp.Header) // only with debug enabled
//
// Debug output can be enabled globally (SetGlobalDebug, wired to the --debug
// flag) or for a single service (EnableDebugFor). SetOutput redirects every
// logger, which tests use to capture lines in a bytes.Buffer.
//
// The package name collides with the standard library; alias one of them when
// both are needed.
package log
