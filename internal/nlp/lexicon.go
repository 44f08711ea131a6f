package nlp

// Part-of-speech tags (VLSP tag set, as used by Vietnamese taggers).
const (
	TagNoun         = "N"
	TagProperNoun   = "Np"
	TagURL          = "Ny"
	TagVerb         = "V"
	TagAdjective    = "A"
	TagPronoun      = "P"
	TagAdverb       = "R"
	TagPreposition  = "E"
	TagConjunction  = "C"
	TagNumeral      = "M"
	TagDeterminer   = "L"
	TagParticle     = "T"
	TagInterjection = "I"
	TagPunctuation  = "CH"
)

// defaultLexicon maps single Vietnamese syllables to their dominant tag.
// Anything not listed is tagged as a noun.
var defaultLexicon = map[string]string{
	// pronouns and question words
	"tôi": TagPronoun, "mình": TagPronoun, "bạn": TagPronoun, "chúng": TagPronoun,
	"ta": TagPronoun, "họ": TagPronoun, "nó": TagPronoun, "ai": TagPronoun,
	"gì": TagPronoun, "đâu": TagPronoun, "nào": TagPronoun, "này": TagPronoun,
	"kia": TagPronoun, "đó": TagPronoun, "ấy": TagPronoun, "sao": TagPronoun,
	"bao": TagPronoun, "mấy": TagPronoun, "thế": TagPronoun, "vậy": TagPronoun,
	"em": TagPronoun, "anh": TagPronoun, "chị": TagPronoun,

	// prepositions
	"của": TagPreposition, "cho": TagPreposition, "với": TagPreposition,
	"về": TagPreposition, "trong": TagPreposition, "ngoài": TagPreposition,
	"trên": TagPreposition, "dưới": TagPreposition, "từ": TagPreposition,
	"đến": TagPreposition, "tới": TagPreposition, "bằng": TagPreposition,
	"ở": TagPreposition, "vào": TagPreposition, "tại": TagPreposition,
	"theo": TagPreposition, "qua": TagPreposition,

	// conjunctions
	"và": TagConjunction, "hoặc": TagConjunction, "nhưng": TagConjunction,
	"mà": TagConjunction, "nếu": TagConjunction, "thì": TagConjunction,
	"vì": TagConjunction, "nên": TagConjunction, "hay": TagConjunction,
	"còn": TagConjunction,

	// adverbs
	"đã": TagAdverb, "đang": TagAdverb, "sẽ": TagAdverb, "rất": TagAdverb,
	"cũng": TagAdverb, "vẫn": TagAdverb, "chỉ": TagAdverb, "lại": TagAdverb,
	"đều": TagAdverb, "không": TagAdverb, "chưa": TagAdverb, "được": TagAdverb,
	"nữa": TagAdverb, "hãy": TagAdverb,

	// determiners
	"các": TagDeterminer, "những": TagDeterminer, "mọi": TagDeterminer,
	"mỗi": TagDeterminer, "từng": TagDeterminer,

	// numerals spelled out
	"một": TagNumeral, "hai": TagNumeral, "ba": TagNumeral, "bốn": TagNumeral,
	"năm": TagNumeral, "sáu": TagNumeral, "bảy": TagNumeral, "tám": TagNumeral,
	"chín": TagNumeral, "mười": TagNumeral,

	// particles and interjections
	"à": TagParticle, "ạ": TagParticle, "nhé": TagParticle, "nhỉ": TagParticle,
	"hả": TagParticle, "chứ": TagParticle, "thôi": TagParticle, "ơi": TagInterjection,
	"ừ": TagInterjection, "vâng": TagInterjection, "dạ": TagInterjection,

	// common verbs
	"có": TagVerb, "là": TagVerb, "học": TagVerb, "xem": TagVerb, "làm": TagVerb,
	"cần": TagVerb, "muốn": TagVerb, "biết": TagVerb, "hỏi": TagVerb, "dùng": TagVerb,
	"viết": TagVerb, "đọc": TagVerb, "gửi": TagVerb, "nộp": TagVerb, "giới": TagVerb,
	"thiệu": TagVerb, "ôn": TagVerb, "luyện": TagVerb, "thực": TagVerb, "hành": TagVerb,

	// common adjectives
	"mới": TagAdjective, "cũ": TagAdjective, "tốt": TagAdjective, "khó": TagAdjective,
	"dễ": TagAdjective, "lớn": TagAdjective, "nhỏ": TagAdjective, "quan": TagAdjective,
	"trọng": TagAdjective, "cơ": TagAdjective,
}
