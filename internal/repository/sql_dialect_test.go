package repository

import (
	"strings"
	"testing"
)

func TestBuildKeywordLikeConditionSQLite(t *testing.T) {
	condition, argCount := buildKeywordLikeConditionByDialect("sqlite", []string{"email", "name", ""})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "email LIKE ? OR name LIKE ?" {
		t.Fatalf("condition mismatch, got %s", condition)
	}
}

func TestBuildKeywordLikeConditionPostgres(t *testing.T) {
	condition, argCount := buildKeywordLikeConditionByDialect("postgres", []string{"student_name", "program_title"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if !strings.Contains(condition, "student_name ILIKE ?") {
		t.Fatalf("condition should use ILIKE on postgres, got %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
