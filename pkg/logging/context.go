package logging

import (
	"context"
)

type contextKey string

const (
	ErrorHashKey contextKey = "error_hash"
	ProjectKey   contextKey = "project"
	ScopeIDKey   contextKey = "scope_id"
)

func WithErrorHash(ctx context.Context, hash string) context.Context {
	return context.WithValue(ctx, ErrorHashKey, hash)
}

func WithProject(ctx context.Context, project string) context.Context {
	return context.WithValue(ctx, ProjectKey, project)
}

func WithScopeID(ctx context.Context, scopeID string) context.Context {
	return context.WithValue(ctx, ScopeIDKey, scopeID)
}

func GetErrorHash(ctx context.Context) string {
	if hash, ok := ctx.Value(ErrorHashKey).(string); ok {
		return hash
	}
	return ""
}

func GetProject(ctx context.Context) string {
	if project, ok := ctx.Value(ProjectKey).(string); ok {
		return project
	}
	return ""
}

func GetScopeID(ctx context.Context) string {
	if scopeID, ok := ctx.Value(ScopeIDKey).(string); ok {
		return scopeID
	}
	return ""
}

func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 6)

	if hash := GetErrorHash(ctx); hash != "" {
		fields = append(fields, "error_hash", hash)
	}

	if project := GetProject(ctx); project != "" {
		fields = append(fields, "project", project)
	}

	if scopeID := GetScopeID(ctx); scopeID != "" {
		fields = append(fields, "scope_id", scopeID)
	}

	return fields
}
