package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_FindQuestion(t *testing.T) {
	// Arrange
	post := &Post{
		ID: 1,
		Questions: []PostQuestion{
			{ID: 10, Slug: "two-sum", Difficulty: DifficultyEasy},
			{ID: 11, Slug: "lru-cache", Difficulty: DifficultyMedium},
			{ID: 12, Slug: "median-of-two-sorted-arrays", Difficulty: DifficultyHard},
		},
	}

	// Act
	found := post.FindQuestion("lru-cache")

	// Assert
	require.NotNil(t, found, "Задача из поста должна находиться по slug")
	assert.Equal(t, uint(11), found.ID)
	assert.Nil(t, post.FindQuestion("reverse-linked-list"), "Чужая задача не должна находиться")
}

func TestPost_FindQuestion_ReturnsPointerIntoPost(t *testing.T) {
	post := &Post{Questions: []PostQuestion{{ID: 1, Slug: "two-sum"}}}

	found := post.FindQuestion("two-sum")

	require.NotNil(t, found)
	assert.Same(t, &post.Questions[0], found)
}

func TestPost_IsDelivered(t *testing.T) {
	assert.False(t, (&Post{}).IsDelivered(), "Пост без message_id не доставлен")
	assert.True(t, (&Post{MessageID: "42"}).IsDelivered())
}
