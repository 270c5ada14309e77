package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID    string   `dynamodbav:"userId" json:"userId"` // ✅ Partition Key
	Name      string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Gender    string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	BirthYear int      `dynamodbav:"birthYear,omitempty" json:"birthYear,omitempty"`
	Height    int      `dynamodbav:"height,omitempty" json:"height,omitempty"` // In centimeters
	City      string   `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Photos    []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"` // S3 object keys
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
