package league

import "testing"

func TestParseTier(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Tier
		wantErr bool
	}{
		{name: "empty defaults to bronze", raw: "", want: TierBronze},
		{name: "blank defaults to bronze", raw: "   ", want: TierBronze},
		{name: "bronze", raw: "bronze", want: TierBronze},
		{name: "mixed case", raw: "Gold", want: TierGold},
		{name: "padded", raw: " diamond ", want: TierDiamond},
		{name: "silver", raw: "silver", want: TierSilver},
		{name: "platinum", raw: "platinum", want: TierPlatinum},
		{name: "unknown", raw: "wood", wantErr: true},
		{name: "typo", raw: "bronz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTier(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got tier %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected tier %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLeagueValidate(t *testing.T) {
	valid := League{
		ID:          "lg-1",
		Tier:        TierBronze,
		WeekStart:   "2026-08-17",
		MemberCount: 1,
		Capacity:    DefaultCapacity,
	}

	tests := []struct {
		name    string
		mutate  func(*League)
		wantErr bool
	}{
		{name: "valid", mutate: func(_ *League) {}},
		{name: "missing id", mutate: func(l *League) { l.ID = "" }, wantErr: true},
		{name: "missing tier", mutate: func(l *League) { l.Tier = "" }, wantErr: true},
		{name: "missing week start", mutate: func(l *League) { l.WeekStart = "" }, wantErr: true},
		{name: "zero capacity", mutate: func(l *League) { l.Capacity = 0 }, wantErr: true},
		{name: "negative member count", mutate: func(l *League) { l.MemberCount = -1 }, wantErr: true},
		{name: "member count over capacity", mutate: func(l *League) { l.MemberCount = l.Capacity + 1 }, wantErr: true},
		{name: "full league is valid", mutate: func(l *League) { l.MemberCount = l.Capacity }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg := valid
			tt.mutate(&lg)

			err := lg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestLeagueIsFull(t *testing.T) {
	lg := League{MemberCount: DefaultCapacity - 1, Capacity: DefaultCapacity}
	if lg.IsFull() {
		t.Fatalf("expected league with an open slot not to be full")
	}

	lg.MemberCount = DefaultCapacity
	if !lg.IsFull() {
		t.Fatalf("expected league at capacity to be full")
	}
}

func TestMemberValidate(t *testing.T) {
	valid := Member{LeagueID: "lg-1", UserID: "user-1", DisplayName: "Ada"}

	tests := []struct {
		name    string
		mutate  func(*Member)
		wantErr bool
	}{
		{name: "valid", mutate: func(_ *Member) {}},
		{name: "missing league id", mutate: func(m *Member) { m.LeagueID = "" }, wantErr: true},
		{name: "missing user id", mutate: func(m *Member) { m.UserID = "" }, wantErr: true},
		{name: "missing display name", mutate: func(m *Member) { m.DisplayName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)

			err := m.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}
