package parsernested

type UserRow struct {
	ID       int
	FullName string
	Tags     []string
	Extra    int
	Self     *UserRow
}
