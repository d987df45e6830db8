package realtime

import "github.com/newsline-app/newsline/models"

// Event names on the wire. Created and updated events carry the full
// post-mutation article snapshot; deleted events carry only the identifier.
const (
	EventCreated = "newsCreated"
	EventUpdated = "newsUpdated"
	EventDeleted = "newsDeleted"
)

type Event struct {
	Name    string          `json:"name"`
	Article *models.Article `json:"article,omitempty"`
	ID      uint            `json:"id,omitempty"`
}

func Created(article *models.Article) Event {
	return Event{Name: EventCreated, Article: article, ID: article.ID}
}

func Updated(article *models.Article) Event {
	return Event{Name: EventUpdated, Article: article, ID: article.ID}
}

func Deleted(id uint) Event {
	return Event{Name: EventDeleted, ID: id}
}

// Broker is the publish side of the broadcast channel.
type Broker interface {
	Publish(event Event)
}
