package service

import (
	"encoding/json"
	"fmt"

	"ai-recipechat-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	PublishEmbedRecipe(recipeId uuid.UUID) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

// PublishEmbedRecipe enqueues a recipe for asynchronous embedding.
func (ps *publisherService) PublishEmbedRecipe(recipeId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedRecipeMessage{RecipeId: recipeId})
	if err != nil {
		return fmt.Errorf("marshal embed message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return ps.pubSub.Publish(ps.topicName, msg)
}
