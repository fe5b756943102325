package domain

// Quality is a 0-5 self-assessed recall score supplied per review.
// 0-2 mean the recall failed, 3 is a hard-won correct, 4 a good correct,
// 5 an easy correct. The full range is part of the scheduling contract even
// though the current clients only ever send 2 or 4.
type Quality int

// Named points on the quality scale.
const (
	QualityBlackout  Quality = 0
	QualityWrong     Quality = 2
	QualityHard      Quality = 3
	QualityGood      Quality = 4
	QualityPerfect   Quality = 5
	QualityThreshold Quality = 3 // minimum quality counted as a pass
)

// Valid reports whether the quality is within the 0-5 scale.
func (q Quality) Valid() bool {
	return q >= 0 && q <= 5
}

// Validate returns ErrInvalidQuality if the score is outside the 0-5 scale.
func (q Quality) Validate() error {
	if !q.Valid() {
		return ErrInvalidQuality
	}
	return nil
}

// Passed reports whether the review counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= QualityThreshold
}
