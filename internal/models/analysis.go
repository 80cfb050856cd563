package models

// ClusterItem is the projection of a record stored inside a cluster
type ClusterItem struct {
	Type            MediaType `json:"type"`
	URL             string    `json:"url"`
	Timestamp       int64     `json:"timestamp"`
	Characteristics []string  `json:"characteristics"`
	Metadata        Metadata  `json:"metadata"`
	Engagement      int64     `json:"engagement"`
}

// Cluster aggregates every record sharing one characteristic
type Cluster struct {
	Characteristic string            `json:"characteristic"`
	Types          map[MediaType]int `json:"types"`
	Content        []ClusterItem     `json:"content"`
	RelatedChars   map[string]int    `json:"related_chars"`
	Total          int               `json:"total"`
	// FirstSeen is the position at which the characteristic was first met
	// while scanning the snapshot. Used to keep rankings stable.
	FirstSeen int `json:"-"`
}

// KeywordStats is the context entry for one keyword
type KeywordStats struct {
	Keyword    string            `json:"keyword"`
	Count      int               `json:"count"`
	Types      map[MediaType]int `json:"types"`
	Engagement int64             `json:"engagement"`
	FirstSeen  int               `json:"-"`
}

// TopicItem is one record reference inside a topic entry
type TopicItem struct {
	Type       MediaType `json:"type"`
	URL        string    `json:"url"`
	Engagement int64     `json:"engagement"`
}

// TopicStats is the context entry for one topic
type TopicStats struct {
	Topic      string      `json:"topic"`
	Count      int         `json:"count"`
	Engagement int64       `json:"engagement"`
	Content    []TopicItem `json:"content"`
	FirstSeen  int         `json:"-"`
}

// Association links a characteristic to the keywords and topics seen with it
type Association struct {
	Characteristic string         `json:"characteristic"`
	Keywords       map[string]int `json:"keywords"`
	Topics         map[string]int `json:"topics"`
	Engagement     int64          `json:"engagement"`
	FirstSeen      int            `json:"-"`
}

// ContextAnalysis is the output of the context analyzer
type ContextAnalysis struct {
	Keywords     map[string]*KeywordStats `json:"keywords"`
	Topics       map[string]*TopicStats   `json:"topics"`
	Associations map[string]*Association  `json:"associations"`
}

// RealtimeTrend groups the records of one media type seen in the trailing window
type RealtimeTrend struct {
	Count           int            `json:"count"`
	Characteristics map[string]int `json:"characteristics"`
}

// ContentTypeRecommendation ranks a media type
type ContentTypeRecommendation struct {
	Type             MediaType `json:"type"`
	Score            float64   `json:"score"`
	Reason           string    `json:"reason"`
	AvgEngagement    float64   `json:"avg_engagement"`
	TopicDiversity   int       `json:"topic_diversity"`
	KeywordRelevance int       `json:"keyword_relevance"`
	Topics           []string  `json:"topics"`
	Keywords         []string  `json:"keywords"`
	// LeadingCharacteristic is the cluster holding the most records of this type.
	LeadingCharacteristic string `json:"leading_characteristic,omitempty"`
}

// TopicRecommendation ranks a topic by cumulative engagement
type TopicRecommendation struct {
	Topic   string      `json:"topic"`
	Score   float64     `json:"score"`
	Reason  string      `json:"reason"`
	Content []TopicItem `json:"content"`
}

// TimingRecommendation ranks an hour of the day
type TimingRecommendation struct {
	Hour            int            `json:"hour"`
	Score           float64        `json:"score"`
	Reason          string         `json:"reason"`
	ContentTypes    int            `json:"content_types"`
	BestContent     *ContentRecord `json:"best_content,omitempty"`
	BestContentType MediaType      `json:"best_content_type,omitempty"`
}

// RecommendationSet is everything the recommendation engine returns
type RecommendationSet struct {
	ContentTypes []ContentTypeRecommendation `json:"content_types"`
	Topics       []TopicRecommendation       `json:"topics"`
	Timing       []TimingRecommendation      `json:"timing"`
}
