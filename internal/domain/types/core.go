package types

// GameID identifies the game (or account) a subscription belongs to.
type GameID string

// String returns the string form of the game identifier.
func (g GameID) String() string { return string(g) }

// UserID is the backend-issued subscriber identifier. Empty means unset.
type UserID string

// String returns the string form of the user identifier.
func (u UserID) String() string { return string(u) }

// PhoneNumber is the SMS short code or number sign-up messages are sent to.
type PhoneNumber string

// String returns the string form of the phone number.
func (p PhoneNumber) String() string { return string(p) }

// Query is a flat parameter mapping with case-sensitive keys and decoded values.
type Query map[string]string

// Clone returns an independent copy of q. A nil query stays nil.
func (q Query) Clone() Query {
	if q == nil {
		return nil
	}
	out := make(Query, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// Lookup returns the value stored under key and whether it was present.
func (q Query) Lookup(key string) (string, bool) {
	v, ok := q[key]
	return v, ok
}
