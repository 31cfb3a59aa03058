package domain

// ClassType categorises classes for the schedule filter.
type ClassType string

const (
	ClassTypeHIIT     ClassType = "HIIT"
	ClassTypeYoga     ClassType = "Yoga"
	ClassTypeStrength ClassType = "Strength"
	ClassTypeCardio   ClassType = "Cardio"
)

// Class is a bookable gym session.
type Class struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Trainer  string    `json:"trainer"`
	Type     ClassType `json:"type"`
	Time     string    `json:"time"`
	Duration string    `json:"duration"`
	Spots    int       `json:"spots"`
	IsBooked bool      `json:"is_booked"`
	Rating   float64   `json:"rating"`
}

// ToggleBooking flips the booked flag and moves one spot between the class
// and the member. Spots never go below zero.
func (c *Class) ToggleBooking() error {
	if c.IsBooked {
		c.IsBooked = false
		c.Spots++
		return nil
	}
	if c.Spots <= 0 {
		return ErrClassFull
	}
	c.IsBooked = true
	c.Spots--
	return nil
}
