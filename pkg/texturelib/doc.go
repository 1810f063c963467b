// Package texturelib provides a shared library of user-uploaded texture
// assets with content-addressed, deduplicated blob storage and a per-user
// score economy gating storage.
//
// The package is designed as a reusable library: construct a Service with
// functional options (repository, blob store, pricing, hooks), then call
// the service methods directly or mount the HTTP handlers from
// internal/api on top of it.
//
// Key concepts:
//   - Texture: a catalog record describing one logical uploaded image.
//   - Blob: raw bytes stored once per distinct SHA-256 hash.
//   - Closet: a user's personal collection of texture references.
//   - Score: virtual currency debited for storage and closet occupancy.
package texturelib
