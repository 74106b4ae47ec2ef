package notify

import (
	"context"

	"github.com/wyfcoding/tradingdata/internal/index/domain"
	"github.com/wyfcoding/tradingdata/pkg/mq"
)

// KafkaNotifier 将成分股调整通知投递到 Kafka topic
type KafkaNotifier struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaNotifier 创建 Kafka 通知出口
func NewKafkaNotifier(producer *mq.KafkaProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

type notifyMessage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (n *KafkaNotifier) Notify(ctx context.Context, title, content string) error {
	return n.producer.SendMessage(ctx, n.topic, title, notifyMessage{
		Title:   title,
		Content: content,
	})
}

var _ domain.Notifier = (*KafkaNotifier)(nil)
