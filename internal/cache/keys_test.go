package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "studyguide",
			objectType:  "metadata",
			identifier:  "blade runner",
			paramsKey:   nil,
			expectedKey: "moviequiz:studyguide:metadata:blade runner",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "studyguide",
			objectType:  "synopsis",
			identifier:  "alien",
			paramsKey:   []string{},
			expectedKey: "moviequiz:studyguide:synopsis:alien",
		},
		{
			name:        "with one paramsKey",
			serviceName: "studyguide",
			objectType:  "metadata",
			identifier:  "alien",
			paramsKey:   []string{"v2"},
			expectedKey: "moviequiz:studyguide:metadata:alien:v2",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "studyguide",
			objectType:  "synopsis",
			identifier:  "heat",
			paramsKey:   []string{"p1", "p2", "p3"},
			expectedKey: "moviequiz:studyguide:synopsis:heat:p1_p2_p3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}
