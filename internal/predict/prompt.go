package predict

import "fmt"

const systemPrompt = `Eres un modelo de lenguaje grande (LLM) que explica sus propias predicciones.
Responde únicamente con un objeto JSON con la forma:
{"predictions":[{"word":"...","confidence":0.0,"analysis":"..."}]}`

// UserPrompt builds the analysis request for text.
func UserPrompt(text string) string {
	return fmt.Sprintf(`Como un modelo de lenguaje grande (LLM), analiza la frase: "%[1]s".
Tu tarea es predecir las %[2]d siguientes palabras (tokens) más probables.
Para cada predicción, proporciona:
1.  La palabra ("word").
2.  Un nivel de confianza simulado de 0.0 a 1.0 ("confidence"), que representa la probabilidad asignada a ese token en la distribución de salida.
3.  Un análisis científico ("analysis") que explique la elección en dos partes:
    a) **Razonamiento Contextual**: Explica cómo el contexto semántico y gramatical de la frase de entrada ("%[1]s") influye en la alta probabilidad de esta palabra. Menciona las relaciones entre los tokens de entrada y la palabra predicha.
    b) **Justificación de la Confianza**: Justifica el porcentaje de confianza asignado. Explica si la confianza es alta debido a un contexto muy restrictivo (pocas opciones viables) o más baja si el contexto permite múltiples continuaciones lógicas.`, text, MaxCandidates)
}
