package model

// User is the profile of the person using the app. There is exactly one.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Initials returns the first letter of every word in the user's name.
func (u User) Initials() string {
	var out []rune
	start := true
	for _, r := range u.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
	}
	return string(out)
}
