package seeder

const (
	DemoHREmail        = "hr@demo.local"
	DemoJobSeekerEmail = "seeker@demo.local"
)

// Defaults checks the migrated schema, then seeds one HR account, one job seeker and a few postings owned by
// the HR account. Both accounts share password.
func Defaults(password string) []Seeder {
	return []Seeder{
		SchemaSeeder{},
		UsersSeeder{Password: password},
		JobsSeeder{OwnerEmail: DemoHREmail},
	}
}
