package model

// Video identifies one playable page of an external video. Rows are created
// lazily on first segment submission and never deleted.
type Video struct {
	ID   int64  `json:"-"`
	BVID string `json:"bvid"`
	CID  *int64 `json:"cid,omitempty"`
	Page int    `json:"page"`
}

// PopularVideo is one entry of the most-annotated-videos listing.
type PopularVideo struct {
	BVID            string `json:"bvid"`
	AnnotationCount int    `json:"annotation_count"`
}
