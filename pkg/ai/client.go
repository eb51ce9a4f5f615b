// pkg/ai/client.go

package ai

import (
	"context"

	"krishibondhu/entities"
)

// Client answers farmers' questions. Implementations never return errors:
// failures come back as a fixed localized message.
type Client interface {
	DiagnoseImage(ctx context.Context, image []byte, mimeType string, lang entities.Language) string

	// Chat sends message after history. history is read only.
	Chat(ctx context.Context, message string, history []entities.ChatMessage, lang entities.Language) string
}

const DefaultImageMIME = "image/jpeg"

type localized struct{ bn, en string }

func (l localized) in(lang entities.Language) string {
	if lang == entities.LangEN {
		return l.en
	}
	return l.bn
}

var (
	diagnosePrompt = localized{
		bn: "এই ছবিটিতে কোন ফসলের রোগ আছে কি? থাকলে রোগের নাম, লক্ষণ এবং প্রতিকার সম্পর্কে বিস্তারিত বাংলায় লিখুন। কৃষি বিশেষজ্ঞ হিসেবে উত্তর দিন।",
		en: "Identify any plant disease in this image. If present, describe the disease name, symptoms, and treatment in English. Answer as an agricultural expert.",
	}
	diagnoseEmpty = localized{
		bn: "দুঃখিত, ছবিটি বিশ্লেষণ করা সম্ভব হয়নি।",
		en: "Could not analyze image.",
	}
	diagnoseFailed = localized{
		bn: "ত্রুটি হয়েছে। আবার চেষ্টা করুন।",
		en: "An error occurred during analysis. Please try again.",
	}

	chatInstruction = localized{
		bn: "আপনি বাংলাদেশের একজন অভিজ্ঞ কৃষি বিশেষজ্ঞ। কৃষকদের সহজ বাংলায় ফসলের সমস্যা, সার, বীজ এবং আবহাওয়া নিয়ে পরামর্শ দিন।",
		en: "You are an experienced agricultural expert for Bangladesh. Provide advice to farmers about crops, fertilizers, seeds, and weather in simple English.",
	}
	chatEmpty = localized{
		bn: "দুঃখিত, উত্তর পাওয়া যায়নি।",
		en: "Sorry, I couldn't find an answer for that.",
	}
	chatFailed = localized{
		bn: "সার্ভারে সমস্যা হয়েছে।",
		en: "A server error occurred. Please try again later.",
	}
)

// DiagnoseFailedText is what DiagnoseImage returns when the model call fails.
func DiagnoseFailedText(lang entities.Language) string { return diagnoseFailed.in(lang) }

// ChatFailedText is what Chat returns when the model call fails.
func ChatFailedText(lang entities.Language) string { return chatFailed.in(lang) }
