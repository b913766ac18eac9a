package parserbasic

import "time"

type Profile struct {
	BirthAt time.Time
}

// User is persisted as a row.
//
//mapper:target github.com/seitarof/gen-mapper/testdata/parsernested.UserRow
type User struct {
	ID      int
	Name    string `mapper:"FullName"`
	Profile Profile
	Ptr     *Profile
	Tags    []string
	Scores  map[string]int
	Note    string `mapper:",default"`
	hidden  string
}

//mapper:target Profile
type Snapshot struct {
	BirthAt time.Time
}

//mapper:target Palette
type Color int

//mapper:target
type Orphan struct {
	ID int
}

//mapper:target github.com/seitarof/gen-mapper/testdata/parsernested.Missing
type Dangling struct {
	ID int
}
