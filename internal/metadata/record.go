package metadata

// Record is one catalog row describing a locally known file. FileName is the
// primary key; the remaining fields are descriptive and together form the
// content fingerprint used for duplicate detection.
type Record struct {
	FileName         string
	Rating           int
	Aperture         float64
	LensID           string
	CaptureTime      string
	FocalLength      float64
	ExposureTime     float64
	ColorTemperature int
}

// Fingerprint is the tuple of all non-key fields. Two records with equal
// fingerprints describe the same physical capture regardless of filename.
type Fingerprint struct {
	Rating           int
	Aperture         float64
	LensID           string
	CaptureTime      string
	FocalLength      float64
	ExposureTime     float64
	ColorTemperature int
}

// Fingerprint returns the record's content fingerprint.
func (r Record) Fingerprint() Fingerprint {
	return Fingerprint{
		Rating:           r.Rating,
		Aperture:         r.Aperture,
		LensID:           r.LensID,
		CaptureTime:      r.CaptureTime,
		FocalLength:      r.FocalLength,
		ExposureTime:     r.ExposureTime,
		ColorTemperature: r.ColorTemperature,
	}
}
