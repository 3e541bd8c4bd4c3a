// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the public contracts of hioload-listen: the transport
// selector and poller-group abstractions, the accept hook, and the error
// taxonomy shared by all packages.
package api
