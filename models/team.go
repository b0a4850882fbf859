package models

import (
	"fmt"
	"strings"
	"time"
)

// Discipline is one of the three sports played in the tournament.
type Discipline string

const (
	DisciplineFootball   Discipline = "football"
	DisciplineVolleyball Discipline = "volleyball"
	DisciplineBasketball Discipline = "basketball"
)

// Disciplines lists every discipline in grid order.
var Disciplines = []Discipline{DisciplineFootball, DisciplineVolleyball, DisciplineBasketball}

func (d Discipline) Valid() bool {
	switch d {
	case DisciplineFootball, DisciplineVolleyball, DisciplineBasketball:
		return true
	}
	return false
}

// IsRotating reports whether the discipline alternates by weekday.
// Football is played every day and never rotates.
func (d Discipline) IsRotating() bool {
	return d == DisciplineVolleyball || d == DisciplineBasketball
}

// AllowsDraws is true only for football; set-based disciplines always have a winner.
func (d Discipline) AllowsDraws() bool {
	return d == DisciplineFootball
}

// OtherRotating returns the rotating discipline that is not d.
func (d Discipline) OtherRotating() Discipline {
	if d == DisciplineVolleyball {
		return DisciplineBasketball
	}
	return DisciplineVolleyball
}

// Room is the websocket room of the discipline.
func (d Discipline) Room() string {
	return "discipline_" + string(d)
}

func ParseDiscipline(s string) (Discipline, error) {
	d := Discipline(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown discipline %q", s)
	}
	return d, nil
}

// TeamRef is the value copy of a team's identity stored on every match.
// Matches keep the attributes the team had when the match was programmed,
// even if the team record changes later.
type TeamRef struct {
	Curso    string `json:"curso" db:"curso"`
	Paralelo string `json:"paralelo" db:"paralelo"`
	Gender   string `json:"gender" db:"gender"`
	Level    string `json:"level" db:"level"`
	Category string `json:"category" db:"category"`
}

// IsTBD reports whether the slot is still unresolved (placeholder match).
func (t TeamRef) IsTBD() bool {
	return t.Curso == "" && t.Paralelo == ""
}

// Key identifies the team inside a bracket.
func (t TeamRef) Key() string {
	return t.Curso + "|" + t.Paralelo
}

// Name is the display label, e.g. "3ro B".
func (t TeamRef) Name() string {
	if t.IsTBD() {
		return "TBD"
	}
	return strings.TrimSpace(t.Curso + " " + t.Paralelo)
}

// SameTeam compares identity only; gender/level/category are attributes.
func (t TeamRef) SameTeam(other TeamRef) bool {
	return !t.IsTBD() && t.Curso == other.Curso && t.Paralelo == other.Paralelo
}

type Team struct {
	ID         string     `json:"id" db:"id"`
	Discipline Discipline `json:"discipline" db:"discipline"`
	Group      string     `json:"group" db:"group_name"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`

	TeamRef
}

// BracketKey scopes one bracket: every team of that key plays in the same
// group stage and playoff.
type BracketKey struct {
	Discipline Discipline `json:"discipline"`
	Gender     string     `json:"gender"`
	Level      string     `json:"level"`
	Category   string     `json:"category"`
}

func (k BracketKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Discipline, k.Gender, k.Level, k.Category)
}

// Room is the websocket room that receives updates for the key's discipline.
func (k BracketKey) Room() string {
	return k.Discipline.Room()
}

func (t Team) BracketKey() BracketKey {
	return BracketKey{Discipline: t.Discipline, Gender: t.Gender, Level: t.Level, Category: t.Category}
}
