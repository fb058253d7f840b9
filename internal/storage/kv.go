// Package storage provides the persistence layer: a synchronous key-value
// store holding each collection as a JSON-serialized array under a fixed key,
// mirroring the localStorage layout of the original web application. Backends
// are SQLite (durable) and in-memory (tests, throwaway runs).
package storage

// Collection keys. Each holds a JSON array of the corresponding entity.
const (
	KeySantris     = "santris"
	KeyTransaksis  = "transaksis"
	KeyPembayarans = "pembayarans"
	KeyTagihan     = "tagihanBulanan"

	// Out-of-core keys owned by the auth layer.
	KeyUser        = "user"
	KeyCredentials = "loginCredentials"
)

// KV is the synchronous key-value port the data layer persists through.
// Get returns ok=false for an absent key.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}
