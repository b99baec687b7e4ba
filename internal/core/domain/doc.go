// Package domain contains the core business types for vigirag.
// These types have no dependencies on adapters or infrastructure.
package domain
