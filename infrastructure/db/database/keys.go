package database

var bucketSeparator = []byte("/")

// Bucket is a helper type meant to combine buckets
// and sub-buckets that can be used to create database
// keys and prefix-based cursors.
type Bucket struct {
	path []byte
}

// MakeBucket creates a new Bucket using the given path
// of buckets.
func MakeBucket(path []byte) *Bucket {
	return &Bucket{path: path}
}

// Key returns a key in the current bucket with the
// given suffix.
func (b *Bucket) Key(suffix []byte) []byte {
	key := make([]byte, 0, len(b.path)+len(bucketSeparator)+len(suffix))
	key = append(key, b.path...)
	key = append(key, bucketSeparator...)
	return append(key, suffix...)
}

// Path returns the full path of the current bucket.
func (b *Bucket) Path() []byte {
	return b.Key(nil)
}
