// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. They import only domain, the ports,
// the logger, and small libraries for log correlation ids and structural
// comparison.
package services
