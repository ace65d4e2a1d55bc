package model

// CacheEntry is one question/answer pair in the answer cache. The key is the
// raw question string, byte for byte; no normalization is applied.
type CacheEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Ctime    int64  `json:"ctime"`
}
