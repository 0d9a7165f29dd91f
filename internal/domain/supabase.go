package domain

import "github.com/supabase-community/supabase-go"

// SupabaseClient wraps the connection used by the Supabase task store.
type SupabaseClient interface {
	Initialize() error
	DB() *supabase.Client
}
