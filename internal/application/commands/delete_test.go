package commands

import (
	"context"
	"errors"
	"testing"

	"prompttree/internal/application"
)

func TestDeleteCommand_Execute(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantErr   error
		errMsg    string
		remaining int
	}{
		{name: "branch with child", key: "a", remaining: 2},
		{name: "leaf", key: "b", remaining: 3},
		{name: "root", key: "root", errMsg: "root node cannot be deleted", remaining: 4},
		{name: "unknown", key: "unknown", wantErr: application.ErrNotFound, remaining: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, ids := setupTestSession(t)
			id, ok := ids[tt.key]
			if !ok {
				id = "missing"
			}

			result, err := NewDeleteCommand(session, id).Execute(context.Background())

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			case tt.errMsg != "":
				if err == nil || !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.DeletedID != id {
					t.Errorf("expected deleted %s, got %s", id, result.DeletedID)
				}
			}

			if got := session.Stats().Nodes; got != tt.remaining {
				t.Errorf("expected %d nodes left, got %d", tt.remaining, got)
			}
		})
	}
}

func TestDeleteCommand_Validate(t *testing.T) {
	cmd := &DeleteCommand{}
	if err := cmd.Validate(); err == nil || !contains(err.Error(), "node ID is required") {
		t.Errorf("expected node ID validation error, got %v", err)
	}
}
