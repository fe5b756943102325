package domain

// StudyMode identifies a direction of recall for a card. A single card has
// one independent progress record per mode: mastering "hanzi to pinyin" says
// nothing about "english to hanzi".
type StudyMode string

// Possible study mode values.
const (
	StudyModeHanziToPinyin   StudyMode = "hanzi_to_pinyin"
	StudyModePinyinToEnglish StudyMode = "pinyin_to_english"
	StudyModeEnglishToHanzi  StudyMode = "english_to_hanzi"
	StudyModeEnglishToPinyin StudyMode = "english_to_pinyin"
	StudyModePinyinToHanzi   StudyMode = "pinyin_to_hanzi"
	StudyModeHanziToEnglish  StudyMode = "hanzi_to_english"

	// StudyModeEnglishPinyinToHanzi is part of the mode vocabulary for
	// forward compatibility. No selection surface produces it today.
	StudyModeEnglishPinyinToHanzi StudyMode = "english_pinyin_to_hanzi"
)

// AllStudyModes lists every valid mode, in a stable order. Used when
// aggregating per-mode counts.
var AllStudyModes = []StudyMode{
	StudyModeHanziToPinyin,
	StudyModePinyinToEnglish,
	StudyModeEnglishToHanzi,
	StudyModeEnglishToPinyin,
	StudyModePinyinToHanzi,
	StudyModeHanziToEnglish,
	StudyModeEnglishPinyinToHanzi,
}

// Valid reports whether the mode is one of the recognized recall directions.
func (m StudyMode) Valid() bool {
	switch m {
	case StudyModeHanziToPinyin,
		StudyModePinyinToEnglish,
		StudyModeEnglishToHanzi,
		StudyModeEnglishToPinyin,
		StudyModePinyinToHanzi,
		StudyModeHanziToEnglish,
		StudyModeEnglishPinyinToHanzi:
		return true
	default:
		return false
	}
}

// Validate returns ErrInvalidStudyMode if the mode is not recognized.
func (m StudyMode) Validate() error {
	if !m.Valid() {
		return ErrInvalidStudyMode
	}
	return nil
}
