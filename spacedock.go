// Package spacedock holds the domain types for the spacedock service: users,
// the spaces they own, and the documents nested inside those spaces. The
// concrete implementations live in sub packages (tenant for storage and
// services, http for the transport).
package spacedock
