package resumes

import "testing"

func TestCanView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		r        Resume
		callerID string
		want     bool
	}{
		{name: "public anonymous", r: Resume{UserID: "u1", Visibility: VisibilityPublic}, callerID: "", want: true},
		{name: "public stranger", r: Resume{UserID: "u1", Visibility: VisibilityPublic}, callerID: "u2", want: true},
		{name: "private owner", r: Resume{UserID: "u1", Visibility: VisibilityPrivate}, callerID: "u1", want: true},
		{name: "private stranger", r: Resume{UserID: "u1", Visibility: VisibilityPrivate}, callerID: "u2", want: false},
		{name: "private anonymous", r: Resume{UserID: "u1", Visibility: VisibilityPrivate}, callerID: "", want: false},
		{name: "private empty owner never matches anonymous", r: Resume{UserID: "", Visibility: VisibilityPrivate}, callerID: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CanView(tt.r, tt.callerID); got != tt.want {
				t.Fatalf("CanView(%+v, %q) = %v, want %v", tt.r, tt.callerID, got, tt.want)
			}
		})
	}
}
