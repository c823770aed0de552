package index

var (
	bIssues  = []byte("issues")   // slug -> record json
	bIdxDate = []byte("idx_date") // dateSlugKey -> slug
	bIdxYear = []byte("idx_year") // year -> sub-bucket of dateSlugKey -> slug
	bMeta    = []byte("meta")     // build metadata

	kBuiltAt = []byte("built_at")
)
