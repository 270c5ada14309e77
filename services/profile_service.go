package services

import (
	"context"
	"fmt"
	"log"

	"amora_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileService reads user profiles and produces the public projection
// pushed with a match. Photos is optional; without it photo references are
// emitted as raw object keys.
type ProfileService struct {
	Dynamo *DynamoService
	Photos *PhotoService
}

// GetUserProfile retrieves a user profile by ID
func (ps *ProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := ps.Dynamo.GetItem(ctx, models.UserProfilesTable, map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", userID, err)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetMatchProfile returns the public projection of a user for the counterpart
// side of a match. Photo references are obscured: the client renders them
// blurred until the conversation is opened.
func (ps *ProfileService) GetMatchProfile(ctx context.Context, userID string) (*models.MatchedUser, error) {
	profile, err := ps.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	matched := &models.MatchedUser{
		UserID:    profile.UserID,
		Name:      profile.Name,
		BirthYear: profile.BirthYear,
		Height:    profile.Height,
		City:      profile.City,
		Photos:    []models.ObscuredPhoto{},
	}

	for _, key := range profile.Photos {
		url := key
		if ps.Photos != nil {
			presigned, err := ps.Photos.GenerateReadURL(key)
			if err != nil {
				log.Printf("⚠️ Failed to presign photo %s for %s: %v", key, userID, err)
				continue
			}
			url = presigned
		}
		matched.Photos = append(matched.Photos, models.ObscuredPhoto{URL: url, Blurred: true})
	}

	return matched, nil
}
