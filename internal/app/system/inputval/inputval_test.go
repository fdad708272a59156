package inputval

import (
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/apperr"
)

type reportInput struct {
	ReportType string    `json:"reportType" validate:"required,oneof=Lost Found"`
	ItemName   string    `json:"itemName" validate:"nonblank,max=120"`
	Course     string    `json:"course" validate:"omitempty,course"`
	OrgID      string    `json:"organizationId" validate:"omitempty,objectid"`
	Start      time.Time `json:"startDate"`
	End        time.Time `json:"endDate" validate:"omitempty,gtefield=Start"`
}

func TestStruct(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		in      reportInput
		wantMsg string
	}{
		{"valid", reportInput{ReportType: "Lost", ItemName: "Umbrella"}, ""},
		{"missing type", reportInput{ItemName: "Umbrella"}, "reportType is required"},
		{"bad enum", reportInput{ReportType: "Stolen", ItemName: "Umbrella"}, "reportType must be one of: Lost, Found"},
		{"blank name", reportInput{ReportType: "Found", ItemName: "   "}, "itemName is required"},
		{"bad course", reportInput{ReportType: "Found", ItemName: "x", Course: "BS Magic"},
			"course must be one of: BS Civil Engineering, BS Information Technology, BS Computer Science, BS Food Technology"},
		{"bad id", reportInput{ReportType: "Found", ItemName: "x", OrgID: "123"}, "organizationId is not a valid id"},
		{"end before start", reportInput{ReportType: "Found", ItemName: "x", Start: now, End: now.Add(-time.Hour)},
			"endDate must not be before Start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}
			if !apperr.Is(err, apperr.KindClient) {
				t.Fatalf("Struct() = %v, want client error", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message: got %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
