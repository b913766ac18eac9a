package parserembed

type Animal interface {
	Sound() string
}

type Mammal struct {
	Legs int
}

func (Mammal) Sound() string { return "..." }

type Dog struct {
	Mammal
	Name string
}

type Shelter[T Animal] struct {
	Pet   T
	Label string
}

//mapper:target Shelter
type Kennel struct {
	Pet Dog
}

type Foster[T Animal] struct {
	Pet  *T
	Name string
}

//mapper:target Foster
type Cage struct {
	Pet  Dog
	Name string
}

type Base struct {
	ID   int
	Name string
}

type InnerA struct {
	Code string
}

type InnerB struct {
	Code string
}

//mapper:target Flat
type User struct {
	Base
	InnerA
	InnerB
	Name   string
	Email  string
	hidden string
}

type Flat struct {
	ID    int
	Name  string
	Email string
	Code  string
}
