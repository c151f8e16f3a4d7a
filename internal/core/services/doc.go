// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never import adapters; everything external arrives through
// the driven ports and may be nil where documented.
package services
