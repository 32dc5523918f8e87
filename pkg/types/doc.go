// Package types defines the entity types, the Store and Tx interfaces, and
// the standard errors for the taskboard relationship core.
//
// Entities are plain structs scoped by TenantID. Entity methods mutate the
// struct in memory and validate field values; persistence happens through a
// Tx obtained from Store.Update or Store.View.
package types
