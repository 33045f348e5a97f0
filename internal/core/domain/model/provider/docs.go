// Package provider contains the Provider directory entity and the
// ephemeral Location sample published by provider devices.
package provider
