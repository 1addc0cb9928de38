package models

// Answer is the decoded value of one answered question. The concrete type is
// selected by the owning question's variant.
type Answer interface {
	AnswerType() QuestionType
}

// CategorizeAnswer maps category label to the ordered list of items assigned
// to it. Every item appears in at most one category; unassigned items appear
// in none.
type CategorizeAnswer map[string][]string

func (CategorizeAnswer) AnswerType() QuestionType { return Categorize }

// Assign moves item into category, removing it from every other category
// first so the single-assignment invariant holds after every move.
func (a CategorizeAnswer) Assign(item, category string) {
	a.Unassign(item)
	a[category] = append(a[category], item)
}

// Unassign removes item from whichever category currently holds it.
func (a CategorizeAnswer) Unassign(item string) {
	for category, items := range a {
		kept := items[:0]
		for _, it := range items {
			if it != item {
				kept = append(kept, it)
			}
		}
		a[category] = kept
	}
}

// CategoryOf returns the category currently holding item, or "" when the
// item is unassigned.
func (a CategorizeAnswer) CategoryOf(item string) string {
	for category, items := range a {
		for _, it := range items {
			if it == item {
				return category
			}
		}
	}
	return ""
}

// AssignedCount returns the total number of assigned items.
func (a CategorizeAnswer) AssignedCount() int {
	n := 0
	for _, items := range a {
		n += len(items)
	}
	return n
}

// ClozeAnswer maps 0-based blank index to the respondent's free text. Unset
// blanks have no entry; they are never stored as empty strings.
type ClozeAnswer map[int]string

func (ClozeAnswer) AnswerType() QuestionType { return Cloze }

// Set records the text for a blank. Setting an empty string clears the
// entry, keeping unset blanks absent from the mapping.
func (a ClozeAnswer) Set(index int, text string) {
	if text == "" {
		delete(a, index)
		return
	}
	a[index] = text
}

// ComprehensionAnswer carries the single selected option, stored as the
// literal option string rather than an index so reordering options leaves
// recorded answers intact.
type ComprehensionAnswer struct {
	SelectedOption string `json:"selectedOption"`
}

func (ComprehensionAnswer) AnswerType() QuestionType { return Comprehension }

// Select replaces any prior selection.
func (a *ComprehensionAnswer) Select(option string) {
	a.SelectedOption = option
}
