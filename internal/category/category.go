package category

// Category is a named grouping products are filed under. The admin
// editor manages the list; products reference categories by name.
type Category struct {
	ID   int    `json:"categoryId"`
	Name string `json:"name"`
}
