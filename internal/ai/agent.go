package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-oilmill/internal/database"
	"go-oilmill/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers an admin question about the mill's books. The model can
// call back into the product list and the sales/purchase summaries.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the back-office assistant of an oil mill.

	RULES:
	1. PRODUCTS: If the user asks about products by name, call 'list_products' first and read the JSON to find the item. Do NOT ask the user for IDs.
	2. SALES: If the user asks for sales, revenue or billing figures, use 'get_sales_summary' with a date range.
	3. PURCHASES: If the user asks what was bought or spent, use 'get_purchase_summary' with a date range.
	4. Amounts are in rupees; bills run on the April-March financial year.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "list_products",
					Description: "Get the full product list with IDs and names.",
				},
				{
					Name:        "get_sales_summary",
					Description: "Get total sales amount and bill count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "get_purchase_summary",
					Description: "Get total purchase amount and bill count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "list_products":
				return executeListProducts(ctx, session)
			case "get_sales_summary":
				return executeSummary(ctx, session, funcCall, database.GetSalesSummary)
			case "get_purchase_summary":
				return executeSummary(ctx, session, funcCall, database.GetPurchaseSummary)
			}
		}
	}

	return printResponse(resp), nil
}

func executeListProducts(ctx context.Context, session *genai.ChatSession) (string, error) {
	var products []models.Product
	database.DB.Find(&products)

	type simpleProduct struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	var simpleList []simpleProduct
	for _, p := range products {
		simpleList = append(simpleList, simpleProduct{ID: p.ID, Name: p.Name})
	}

	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "list_products",
		Response: map[string]interface{}{"products": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeSummary(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall,
	summarize func(start, end string) (*database.SalesSummary, error)) (string, error) {

	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	if _, err := time.Parse("2006-01-02", startStr); err != nil {
		return "Error: Dates must be in YYYY-MM-DD format.", nil
	}
	if _, err := time.Parse("2006-01-02", endStr); err != nil {
		return "Error: Dates must be in YYYY-MM-DD format.", nil
	}

	summary, err := summarize(startStr, endStr)
	if err != nil {
		return "Error reading the books.", nil
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: funcCall.Name,
		Response: map[string]interface{}{
			"total_amount": summary.TotalAmount,
			"bill_count":   summary.TotalBills,
		},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
