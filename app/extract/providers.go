package extract

import (
	"github.com/readstash/readstash/app/content"
)

// CreatorFromPayload maps a decoded provider payload to raw creator
// fields. Only the structured-metadata providers are supported here;
// generic web content goes through the HTML article path instead.
func CreatorFromPayload(provider content.Provider, payload map[string]interface{}) *CreatorMeta {
	switch provider {
	case content.ProviderYouTube:
		return VideoCreator(payload)
	case content.ProviderSpotify:
		return PodcastCreator(payload)
	case content.ProviderX:
		return SocialCreator(payload)
	}
	return nil
}

// VideoCreator extracts the channel identity from a video payload.
// Returns nil when the channel id or title is absent.
func VideoCreator(payload map[string]interface{}) *CreatorMeta {
	channelID := stringField(payload, "channelId")
	channelTitle := stringField(payload, "channelTitle")
	if channelID == "" || channelTitle == "" {
		return nil
	}

	return &CreatorMeta{
		ProviderCreatorID: channelID,
		Name:              channelTitle,
	}
}

// PodcastCreator extracts the show identity from a podcast payload.
// The show image is the first entry of the images list when present.
func PodcastCreator(payload map[string]interface{}) *CreatorMeta {
	show := mapField(payload, "show")
	if show == nil {
		show = payload
	}

	showID := stringField(show, "id")
	showName := stringField(show, "name")
	if showID == "" || showName == "" {
		return nil
	}

	meta := &CreatorMeta{
		ProviderCreatorID: showID,
		Name:              showName,
	}

	if images := sliceField(show, "images"); len(images) > 0 {
		if image, ok := images[0].(map[string]interface{}); ok {
			meta.ImageURL = stringField(image, "url")
		}
	}

	return meta
}

// SocialCreator extracts the author identity from a social post
// payload, carrying the handle through when present.
func SocialCreator(payload map[string]interface{}) *CreatorMeta {
	authorID := stringField(payload, "id")
	name := stringField(payload, "name")
	if authorID == "" || name == "" {
		return nil
	}

	return &CreatorMeta{
		ProviderCreatorID: authorID,
		Name:              name,
		Handle:            stringField(payload, "username"),
	}
}

func stringField(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func mapField(payload map[string]interface{}, key string) map[string]interface{} {
	if payload == nil {
		return nil
	}
	if v, ok := payload[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

func sliceField(payload map[string]interface{}, key string) []interface{} {
	if payload == nil {
		return nil
	}
	if v, ok := payload[key].([]interface{}); ok {
		return v
	}
	return nil
}
