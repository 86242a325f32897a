package dashboard

import "errors"

var ErrMissingSupabaseConfig = errors.New("dashboard: supabase url and key are required")
