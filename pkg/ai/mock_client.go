// pkg/ai/mock_client.go

package ai

import (
	"context"
	"strings"

	"krishibondhu/entities"
)

type mockClient struct{}

// NewMock answers from canned text. Used when no model API key is configured.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) DiagnoseImage(_ context.Context, image []byte, _ string, lang entities.Language) string {
	if len(image) == 0 {
		return diagnoseEmpty.in(lang)
	}
	if lang == entities.LangEN {
		return "Diagnosis service is offline (mock). Check leaves for spots, wilting and insects, and contact your local agriculture office."
	}
	return "রোগ নির্ণয় সেবা এখন অফলাইনে (mock)। পাতায় দাগ, ঢলে পড়া বা পোকা আছে কিনা দেখুন এবং নিকটস্থ কৃষি অফিসে যোগাযোগ করুন।"
}

func (m *mockClient) Chat(_ context.Context, message string, _ []entities.ChatMessage, lang entities.Language) string {
	q := strings.ToLower(message)
	switch {
	case strings.TrimSpace(q) == "":
		return chatEmpty.in(lang)
	case strings.Contains(q, "সার") || strings.Contains(q, "fertilizer"):
		if lang == entities.LangEN {
			return "Apply urea in split doses and test your soil before adding TSP or MoP. (mock)"
		}
		return "ইউরিয়া কয়েক কিস্তিতে দিন এবং টিএসপি বা এমওপি দেওয়ার আগে মাটি পরীক্ষা করুন। (mock)"
	case strings.Contains(q, "আবহাওয়া") || strings.Contains(q, "weather"):
		if lang == entities.LangEN {
			return "Check the local forecast before irrigating or spraying. (mock)"
		}
		return "সেচ বা স্প্রে করার আগে স্থানীয় আবহাওয়ার পূর্বাভাস দেখে নিন। (mock)"
	}
	if lang == entities.LangEN {
		return "The expert service is offline (mock). Please call the agriculture helpline."
	}
	return "বিশেষজ্ঞ সেবা এখন অফলাইনে (mock)। অনুগ্রহ করে কৃষি হেল্পলাইনে যোগাযোগ করুন।"
}
