package account

import "fmt"

// Principal is the authenticated identity resolved from an access token.
// DisplayName and AvatarID come from the account service profile and feed
// the league membership snapshot at join time.
type Principal struct {
	UserID      string
	DisplayName string
	AvatarID    string
}

func (p Principal) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("principal user id is required")
	}

	return nil
}
