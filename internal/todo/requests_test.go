package todo

import (
	"errors"
	"testing"
)

func TestCreateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"ok", "Buy milk", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CreateRequest{Title: tt.title}.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q): err = %v, wantErr %v", tt.title, err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("Validate(%q): err %v is not a ValidationError", tt.title, err)
			}
		})
	}
}

func TestUpdateRequestValidate(t *testing.T) {
	title := "new title"
	empty := "  "
	tests := []struct {
		name    string
		req     UpdateRequest
		wantErr bool
	}{
		{"title change", UpdateRequest{ID: 1, Title: &title}, false},
		{"no fields", UpdateRequest{ID: 1}, false},
		{"zero id", UpdateRequest{ID: 0, Title: &title}, true},
		{"negative id", UpdateRequest{ID: -3}, true},
		{"blank title", UpdateRequest{ID: 1, Title: &empty}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%+v): err = %v, wantErr %v", tt.req, err, tt.wantErr)
			}
		})
	}
}

func TestIDRequestsValidate(t *testing.T) {
	if err := (ToggleRequest{ID: 7}).Validate(); err != nil {
		t.Errorf("ToggleRequest{7}: unexpected err %v", err)
	}
	if err := (ToggleRequest{ID: 0}).Validate(); err == nil {
		t.Error("ToggleRequest{0}: expected validation error")
	}
	if err := (DeleteRequest{ID: 7}).Validate(); err != nil {
		t.Errorf("DeleteRequest{7}: unexpected err %v", err)
	}
	if err := (DeleteRequest{ID: -1}).Validate(); err == nil {
		t.Error("DeleteRequest{-1}: expected validation error")
	}
}

func TestErrNotFoundIs(t *testing.T) {
	wrapped := errors.Join(errors.New("lookup id 9"), ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped ErrNotFound not matched by errors.Is")
	}
	if IsValidation(wrapped) {
		t.Error("ErrNotFound wrongly classified as validation error")
	}
}
