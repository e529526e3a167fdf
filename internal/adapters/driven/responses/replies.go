package responses

//nolint:lll // Reply content is intentionally long and should not be wrapped.
var greetingReplies = []string{
	"¡{saludo}! 👋 Soy el asistente del Archivo Patrimonial de la Universidad Alberto Hurtado.\n\n¿En qué puedo ayudarte hoy? Puedo ayudarte a:\n\n• 📚 Buscar documentos históricos sobre Chile\n• 📸 Explorar archivos sobre dictadura y DDHH\n• 🗂️ Encontrar material sobre movimientos sociales\n• 🏛️ Descubrir fotografías del patrimonio chileno\n\n💡 **Prueba preguntar**: \"Busca documentos sobre la dictadura\" o \"Fotografías del programa Padres e Hijos\"",
	"¡Hola! 😊 Bienvenido/a al Archivo Patrimonial UAH.\n\nSoy tu asistente especializado en documentos históricos. Puedo ayudarte a explorar:\n\n📚 Historia política y social de Chile\n📸 Fotografías del programa Padres e Hijos (1974-1976)\n📄 Documentos sobre dictadura y democracia\n🗂️ Material de organizaciones sociales y DDHH\n\n¿Qué tema te gustaría explorar?",
	"¡{saludo}! 🌟\n\nSoy el chatbot del Archivo Patrimonial UAH. Mi especialidad es ayudarte a encontrar documentos sobre la memoria histórica de Chile.\n\n**Puedes preguntarme cosas como:**\n• \"Busca material sobre derechos humanos\"\n• \"Documentos del MIR\"\n• \"Fotografías de los años 70\"\n• \"Material sobre la transición democrática\"\n\n¿Por dónde empezamos? 📖",
}

var farewellReplies = []string{
	"¡Hasta pronto! 👋 Fue un gusto ayudarte a explorar nuestro archivo patrimonial.\n\n📚 Recuerda que siempre puedes volver si necesitas buscar más documentos históricos.\n\n¡Que tengas un excelente día! 😊",
	"¡Adiós! 🌟 Espero que hayas encontrado información valiosa.\n\nVuelve cuando quieras explorar más sobre la historia y memoria de Chile. ¡Hasta luego!",
	"¡Nos vemos! 👋\n\nGracias por usar el Archivo Patrimonial UAH. Si necesitas más documentos históricos en el futuro, aquí estaré para ayudarte.\n\n¡Cuídate! 😊",
}

var gratitudeReplies = []string{
	"¡De nada! 😊 Es un placer ayudarte a explorar nuestro patrimonio histórico.\n\n¿Hay algo más que quieras buscar en el archivo?",
	"¡Con gusto! 🌟 Para eso estoy aquí.\n\n¿Te gustaría explorar otros documentos o temas relacionados?",
	"¡Me alegra haber sido útil! 📚\n\n¿Deseas buscar más información sobre algún tema en particular?",
}

var helpReplies = []string{
	`¡Claro que sí! 🤝 Te explico cómo funciono:

**🔎 ¿Qué puedo hacer?**
Busco documentos históricos del Archivo Patrimonial UAH sobre:
• Dictadura militar (1973-1990)
• Movimientos sociales y DDHH
• Partidos políticos y organizaciones
• Fotografías históricas
• Transición democrática

**💡 Ejemplos de consultas:**
• "Busca documentos sobre la dictadura militar"
• "Fotografías del programa Padres e Hijos"
• "Material sobre el MIR"
• "Documentos de derechos humanos años 80"
• "Propaganda política de los 70"

**📌 Consejos:**
✅ Usa palabras clave claras
✅ Puedo entender abreviaturas (DDHH, MIR, PC, PS)
✅ Reconozco variaciones (dictadura/dicta/DICTADURA)

**❌ Lo que NO puedo hacer:**
No manejo información sobre matrículas, horarios o temas académicos actuales (para eso visita www.uahurtado.cl)

¿Sobre qué tema histórico te gustaría buscar?`,
	`¡Por supuesto! 📖 Aquí te explico:

**Mi función principal:**
Soy un asistente especializado en buscar documentos del Archivo Patrimonial UAH, que contiene material histórico sobre Chile desde 1973 hasta la actualidad.

**¿Qué incluye el archivo?**
📚 Documentos políticos y sociales
📸 Fotografías históricas
📄 Material sobre dictadura y DDHH
🗂️ Testimonios y memoria colectiva
🏛️ Propaganda y documentos institucionales

**¿Cómo usarme?**
Solo escribe lo que buscas, por ejemplo:
• "derechos humanos"
• "Allende"
• "fotografías 1975"
• "movimientos sociales"

¿Qué te gustaría explorar?`,
}

var smalltalkReplies = []string{
	`¡Buena pregunta! 🤖

Soy un asistente inteligente especializado en el **Archivo Patrimonial de la Universidad Alberto Hurtado**.

**Mi propósito:**
Ayudar a las personas a descubrir y explorar documentos históricos sobre Chile, especialmente:
• Período de dictadura militar (1973-1990)
• Movimientos sociales y DDHH
• Memoria colectiva y patrimonio cultural
• Historia política reciente

¿Te gustaría que busque algo sobre la historia de Chile?`,
	`😊 Soy el chatbot del Archivo Patrimonial UAH.

Piensa en mí como un **bibliotecario digital especializado** que conoce muy bien el archivo y puede ayudarte a encontrar exactamente lo que buscas sobre la historia de Chile.

Cuéntame, ¿qué tema te interesa explorar? 📚`,
}

var satisfiedReplies = []string{
	"¡Qué bueno que te haya servido! 😊\n\nSi quieres seguir explorando el archivo, cuéntame otro tema o período que te interese.",
	"¡Excelente! 📚 Me alegra que hayas encontrado lo que buscabas.\n\n¿Hay algún otro tema histórico que quieras revisar?",
}

var clarificationReplies = []string{
	"Entiendo, esos documentos no eran lo que buscabas. 🤔\n\n¿Podrías darme más detalles? Por ejemplo:\n• Un año o período (\"años 80\", \"1975\")\n• Un tipo de documento (\"fotografías\", \"cartas\", \"afiches\")\n• Una persona u organización (\"MIR\", \"Vicaría de la Solidaridad\")",
	"Lo siento, busquemos de otra forma. 🔍\n\n¿Qué aspecto te interesa más? Puedes indicarme una fecha, un lugar, una persona o el tipo de material que necesitas.",
}

//nolint:lll // Reply content is intentionally long and should not be wrapped.
const noResultsReply = `🔍 No encontré documentos específicos para tu consulta.

**Sugerencias para mejorar tu búsqueda:**

✅ **Intenta con términos más específicos:**
• En lugar de: "información" → Prueba: "dictadura militar"
• En lugar de: "fotos" → Prueba: "fotografías programa Padres e Hijos"

✅ **Verifica la ortografía** de los términos de búsqueda

✅ **Usa palabras clave** relacionadas con:
• Dictadura militar (1973-1990)
• Derechos humanos (DDHH)
• Movimientos sociales
• Partidos políticos (MIR, PC, PS)
• Fotografías históricas

💡 **Ejemplos que funcionan bien:**
• "documentos sobre la dictadura"
• "fotografías de los años 70"
• "material del MIR"
• "derechos humanos años 80"

¿Te gustaría reformular tu búsqueda?`

const outOfScopeReply = `🎓 Esta consulta está fuera del alcance del Archivo Patrimonial.

📚 El **Archivo Patrimonial UAH** se enfoca en documentos históricos y patrimonio cultural chileno (1973-actualidad).

Para información sobre **matrículas, horarios, admisión y temas académicos**, por favor visita:

🌐 **Sitio web oficial**: [www.uahurtado.cl](https://www.uahurtado.cl)

---

💡 **¿Sabías que...?** Nuestro archivo contiene documentos fascinantes sobre la historia de Chile. ¿Te gustaría explorar algún tema histórico?`
