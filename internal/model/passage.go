package model

// Metadata attribute names recognized by the self-query retriever and the
// index filter layer. They mirror the fields of the resume corpus file.
const (
	AttrProject     = "project"
	AttrCategory    = "category"
	AttrType        = "type"
	AttrRole        = "role"
	AttrStartDate   = "start_date"
	AttrSkills      = "skills"
	AttrAchievement = "achievement"
)

// Passage is one retrievable unit of the resume corpus. Embeddings are
// precomputed offline; an empty embedding in the corpus file means the
// batch job failed for that entry and is loaded as a zero vector.
type Passage struct {
	ID        string                 `json:"id,omitempty"`
	Text      string                 `json:"text"`
	Embedding []float32              `json:"embedding"`
	Metadata  map[string]interface{} `json:"metadata"`
}
