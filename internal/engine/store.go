package engine

// ColumnStore holds the normalized dataset in Struct-of-Arrays format.
// It is built once by Normalize and never written afterwards, so any number of
// goroutines may query it without locking.
type ColumnStore struct {
	// Data Columns (Flat Arrays)
	years    []int32
	salaries []float64

	// Dictionary Encoded IDs
	sizeIDs  []uint8 // index into CompanySizes
	levelIDs []uint8 // index into ExperienceLevels
	titleIDs []int32 // index into titleDict

	// Dictionaries (ID -> String)
	titleDict []string

	// distinct work years present in the data, ascending
	dataYears []int
}

// Len returns the number of loaded rows.
func (cs *ColumnStore) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.years)
}

// Titles returns the number of distinct job titles.
func (cs *ColumnStore) Titles() int {
	if cs == nil {
		return 0
	}
	return len(cs.titleDict)
}

// Years returns the distinct work years found in the data, ascending.
func (cs *ColumnStore) Years() []int {
	if cs == nil {
		return nil
	}
	out := make([]int, len(cs.dataYears))
	copy(out, cs.dataYears)
	return out
}

// Row returns the normalized record at index i.
func (cs *ColumnStore) Row(i int) Record {
	return Record{
		WorkYear:        int(cs.years[i]),
		CompanySize:     CompanySizes[cs.sizeIDs[i]],
		ExperienceLevel: ExperienceLevels[cs.levelIDs[i]],
		JobTitle:        cs.titleDict[cs.titleIDs[i]],
		SalaryUSD:       cs.salaries[i],
	}
}

// Record is one normalized employment observation.
type Record struct {
	WorkYear        int
	CompanySize     string
	ExperienceLevel string
	JobTitle        string
	SalaryUSD       float64
}
