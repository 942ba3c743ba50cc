// Package material holds the physically-based appearance descriptors of the watch.
package material

// Role names the surface a descriptor is made for.
type Role int

const (
	SteelPolished Role = iota // Oystersteel, mirror finish (case, center links)
	SteelBrushed              // Oystersteel, brushed (case back, inner links)
	SteelSatin                // Oystersteel, satin
	Dial                      // Pink sunray dial
	WhiteGold                 // 18k white gold (fluted bezel, logos)
	Gold                      // Yellow gold (standard-detail crown)
	Crystal                   // Sapphire crystal
	Lens                      // Cyclops lens
	Print                     // Black dial printing
	Luminescent               // Lume on hands
	DateDisc                  // White date disc
	SecondHand                // Red second hand (standard detail)

	roleCount
)

var roleNames = [roleCount]string{
	SteelPolished: "steel-polished",
	SteelBrushed:  "steel-brushed",
	SteelSatin:    "steel-satin",
	Dial:          "dial",
	WhiteGold:     "white-gold",
	Gold:          "gold",
	Crystal:       "crystal",
	Lens:          "lens",
	Print:         "print",
	Luminescent:   "luminescent",
	DateDisc:      "date-disc",
	SecondHand:    "second-hand",
}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return "unknown"
	}
	return roleNames[r]
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r >= 0 && r < roleCount
}

// Roles returns every enumerated role in declaration order.
func Roles() []Role {
	roles := make([]Role, roleCount)
	for i := range roles {
		roles[i] = Role(i)
	}
	return roles
}
